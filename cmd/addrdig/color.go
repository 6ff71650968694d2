// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	pendingStyle  = termenv.Style{}.Foreground(termenv.ANSIYellow)
	foundStyle    = termenv.Style{}.Foreground(termenv.ANSIGreen)
	failedStyle   = termenv.Style{}.Foreground(termenv.ANSIRed)
	notFoundStyle = termenv.Style{}.Foreground(termenv.ANSIBrightBlack)
	skippedStyle  = termenv.Style{}.Faint()
)

var headerStyle = termenv.Style{}.Bold()
