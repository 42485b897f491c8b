package config

// WorkerKeyStruct names the Redis lists drained by background workers.
type WorkerKeyStruct struct {
	PersistSubmissionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistSubmissionsQueue: "persist_submissions_queue",
}
