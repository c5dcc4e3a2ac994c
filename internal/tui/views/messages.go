package views

// NavigateToMap returns to the map view.
type NavigateToMap struct{}

// NavigateToFIRs opens the FIR table.
type NavigateToFIRs struct{}

// ReloadMsg asks for the topologies to be fetched again.
type ReloadMsg struct{}
