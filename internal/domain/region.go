package domain

// Region names an independently loading part of a dashboard view.
type Region string

const (
	RegionStats     Region = "stats"
	RegionTickets   Region = "tickets"
	RegionAnalytics Region = "analytics"
)

// RegionState is the load state of a region.
type RegionState string

const (
	RegionLoading RegionState = "loading"
	RegionReady   RegionState = "ready"
	RegionError   RegionState = "error"
)
