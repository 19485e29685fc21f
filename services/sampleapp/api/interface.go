package api

// MetricsRecorder defines the registry operations used when serving requests
type MetricsRecorder interface {
	Inc(name string) error
	Add(name string, delta int64) error
	Set(name string, value int64) error
	IsInterfaceNil() bool
}
