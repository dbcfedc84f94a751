package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing data with external systems.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// -----------------------------------------------------------------------------
	// Start the server (blocking)
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error

	// -----------------------------------------------------------------------------
	// ClientCount reports the number of connected subscribers
	ClientCount() int
}
