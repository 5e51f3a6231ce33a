// Package view renders the screens of the contractlens TUI.
//
// Each view is a small struct holding the styles and a Render method that
// turns already-built presentation data (resultview.View, ClauseDetail,
// validate.Preview) into a string. Views never talk to the orchestrator.
package view
