/*
Package tui implements the interactive playground for a loaded catalog.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: endpoint list, per-endpoint form state, the displayed response
  - Update: key handling and submission results
  - View: sidebar, form summary, response viewport and status bar

# Key Components

  - model.go: Model struct, modes and message types
  - keys.go: keyboard handling per mode
  - render.go: view rendering and status colors
  - init.go: construction and program startup

# Submissions

Every send goes through playground.Playground, which tags it with a
monotonically increasing token. Results reach the model over a channel
that a single waiting command drains; a result whose token is no longer
the latest is dropped, so the response pane always shows the most recent
send. Choosing another endpoint resets the form and invalidates any
request still in flight.
*/
package tui
