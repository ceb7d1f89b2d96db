// Package pubsubv1 defines the wire types and service descriptors for the
// Publisher and Subscriber RPC services. Messages travel as JSON over
// gRPC; see Codec.
package pubsubv1

// Empty is the response of operations that return nothing.
type Empty struct{}

// Topic is a named stream of messages.
type Topic struct {
	Name string `json:"name"`
}

// PubsubMessage is one published message: an opaque payload plus optional
// string attributes. MessageID and PublishTime are assigned by the server
// and ignored on publish.
type PubsubMessage struct {
	Data        []byte            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId,omitempty"`
	PublishTime string            `json:"publishTime,omitempty"`
}

// PushConfig selects push delivery for a subscription. An empty endpoint
// means pull delivery.
type PushConfig struct {
	PushEndpoint string            `json:"pushEndpoint,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// Subscription binds a named consumer to a topic.
type Subscription struct {
	Name               string      `json:"name"`
	Topic              string      `json:"topic"`
	PushConfig         *PushConfig `json:"pushConfig,omitempty"`
	AckDeadlineSeconds int32       `json:"ackDeadlineSeconds,omitempty"`
	Filter             string      `json:"filter,omitempty"`
}

type GetTopicRequest struct {
	Topic string `json:"topic"`
}

type DeleteTopicRequest struct {
	Topic string `json:"topic"`
}

type ListTopicsRequest struct {
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type ListTopicsResponse struct {
	Topics        []*Topic `json:"topics,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type ListTopicSubscriptionsRequest struct {
	Topic     string `json:"topic"`
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type ListTopicSubscriptionsResponse struct {
	Subscriptions []string `json:"subscriptions,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type PublishRequest struct {
	Topic    string           `json:"topic"`
	Messages []*PubsubMessage `json:"messages"`
}

type PublishResponse struct {
	MessageIDs []string `json:"messageIds"`
}

type GetSubscriptionRequest struct {
	Subscription string `json:"subscription"`
}

type DeleteSubscriptionRequest struct {
	Subscription string `json:"subscription"`
}

type ListSubscriptionsRequest struct {
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []*Subscription `json:"subscriptions,omitempty"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type ModifyPushConfigRequest struct {
	Subscription string      `json:"subscription"`
	PushConfig   *PushConfig `json:"pushConfig"`
}

type PullRequest struct {
	Subscription string `json:"subscription"`
	// ReturnImmediately makes an empty backlog yield an empty response
	// instead of blocking.
	ReturnImmediately bool  `json:"returnImmediately,omitempty"`
	MaxMessages       int32 `json:"maxMessages"`
}

// ReceivedMessage pairs a message with the ack token for this delivery.
type ReceivedMessage struct {
	AckID           string         `json:"ackId"`
	Message         *PubsubMessage `json:"message"`
	DeliveryAttempt int32          `json:"deliveryAttempt,omitempty"`
}

type PullResponse struct {
	ReceivedMessages []*ReceivedMessage `json:"receivedMessages,omitempty"`
}

type AcknowledgeRequest struct {
	Subscription string   `json:"subscription"`
	AckIDs       []string `json:"ackIds"`
}

type ModifyAckDeadlineRequest struct {
	Subscription       string   `json:"subscription"`
	AckIDs             []string `json:"ackIds"`
	AckDeadlineSeconds int32    `json:"ackDeadlineSeconds"`
}
