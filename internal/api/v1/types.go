package apiv1

// Pong is the health check reply body.
type Pong struct {
	Ping string `json:"ping"`
}
