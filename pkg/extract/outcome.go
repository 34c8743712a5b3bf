package extract

// Reason classifies why an extraction degraded instead of succeeding.
type Reason string

const (
	ReasonTimeout         Reason = "timeout"
	ReasonProcessError    Reason = "error"
	ReasonEmptyOutput     Reason = "empty output"
	ReasonEmptyTranscript Reason = "empty transcript"
)

// Outcome is the result of one extraction pass: either a markdown body or a
// degraded reason. It is consumed immediately by the knowledge store and
// never persisted as a type; only its rendered effect is.
type Outcome struct {
	// Body is the extracted markdown. Set only when Degraded is false.
	Body string

	// Degraded reports that extraction could not complete normally.
	Degraded bool

	// Reason is set when Degraded is true.
	Reason Reason

	// MessageCount is the number of transcript messages that fed the
	// attempt; stub records surface it for traceability.
	MessageCount int
}

// Success builds a successful outcome.
func Success(body string, messageCount int) Outcome {
	return Outcome{Body: body, MessageCount: messageCount}
}

// Degraded builds a degraded outcome.
func Degraded(reason Reason, messageCount int) Outcome {
	return Outcome{Degraded: true, Reason: reason, MessageCount: messageCount}
}
