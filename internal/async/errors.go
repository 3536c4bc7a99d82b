package async

import "errors"

var (
	ErrLoadingTaskQueueHost = errors.New("error loading task queue host")
	ErrACLPassword          = errors.New("could not load task queue password")
	ErrACLUsername          = errors.New("could not load task queue username")
	ErrStartingWorker       = errors.New("error starting worker")
	ErrCreatingScheduler    = errors.New("error creating scheduler")
	ErrRunningScheduler     = errors.New("error running scheduler")
	ErrEnqueueingTask       = errors.New("error enqueueing task")
	ErrClientShutdown       = errors.New("error shutting down client")
)
