package constants

import "time"

// Server constants
const (
	// DefaultPort is the HTTP listen port when PORT is unset
	DefaultPort = "8080"

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultReadTimeout and DefaultWriteTimeout bound a single request
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Dataset constants
const (
	// DefaultDatasetPath is the workbook read at startup when DATASET_PATH is unset
	DefaultDatasetPath = "data/Full_Stack_Developer_Task_Data.xlsx"
)

// Environments accepted by ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)
