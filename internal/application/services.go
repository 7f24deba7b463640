package application

// Services bundles the application services every transport serves.
type Services struct {
	Review *ReviewService
	Scan   *ScanService
	Status *StatusService
	Fix    *FixService
	Files  *FilesService
	Watch  *WatchService
}
