// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for browsing listening analytics:
//  1. [MenuView] : Browse the available analysis views
//  2. [RunningView] : Monitor fetch/aggregate progress updates
//  3. [ResultView] : Display the rendered view
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the analysis engine, providing
// non-blocking status reporting while provider data is fetched.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
