// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/shop_api.go -destination=shop_api_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/session_store.go -destination=session_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/task_queue.go -destination=task_queue_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/receipt_log.go -destination=receipt_log_mock.go -package=mocks
