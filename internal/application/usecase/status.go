package usecase

// ListStatus estado de un listado remoto.
type ListStatus string

const (
	StatusLoading ListStatus = "loading"
	StatusReady   ListStatus = "ready"
	StatusError   ListStatus = "error"
)
