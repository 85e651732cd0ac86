package units

// Execution layers for built-in units. Update and draw share one ordering, so
// drawing units sit in their own band.
const (
	DrawBackground = 0
	DrawGame       = 5
	DrawGui        = 10

	UpdatePreDebug         = 0
	UpdateInput            = 5
	UpdatePhysics          = 10
	UpdateDebug            = 15
	UpdateGame             = 20
	UpdatePhysicsPositions = 25
	UpdateFinal            = 30
	UpdatePostDebug        = 35
)
