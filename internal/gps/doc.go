// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gps reads GNGGA sentences from an RTK receiver and expresses each
// fix as a centimeter offset from a self-learned base point.
//
// Coordinates are kept as fixed-point integers end to end: latitude and
// longitude in degrees ×10^7, altitude as the digits of the sentence's
// altitude field with the decimal point removed. No float parsing is done on
// the position path.
package gps
