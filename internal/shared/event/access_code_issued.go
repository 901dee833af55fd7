package event

// AccessCodeIssuedDestination is the topic/subject an issued-code event is
// published to.
const AccessCodeIssuedDestination = "authcode.access_code.issued"

// AccessCodeIssuedConsumerNotification names the notification module's
// consumer group/channel/subscription on that destination.
const AccessCodeIssuedConsumerNotification = "authcode-access-code-issued-notification"

// AccessCodeIssuedMessage is the wire payload published whenever a fresh
// passcode has been persisted and must be delivered to the user.
//
// The plaintext code travels on the bus exactly once; it is never written to
// storage or logs.
type AccessCodeIssuedMessage struct {
	DocumentNumber   string `json:"document_number"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	Code             string `json:"code"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	IssuedAtUnix     int64  `json:"issued_at_unix"`
	Resend           bool   `json:"resend"`
}
