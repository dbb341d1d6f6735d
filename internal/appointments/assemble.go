package appointments

const ContentTypeJSON = "application/json"

// Payload is the JSON body returned to callers.
type Payload struct {
	AvailableAppointments []Appointment `json:"availableAppointments"`
}

// Response pairs the payload with the content type the transport must declare.
type Response struct {
	ContentType string
	Payload     Payload
}

// Assemble packages enriched appointments. The list always encodes as an array.
func Assemble(enriched []Appointment) Response {
	if enriched == nil {
		enriched = []Appointment{}
	}
	return Response{
		ContentType: ContentTypeJSON,
		Payload:     Payload{AvailableAppointments: enriched},
	}
}
