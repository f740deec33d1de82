package observability

// Metric name prefixes
const (
	MetricPrefix = "parlay"
)

// Metric names
const (
	// Ticket metrics
	TicketOperationsTotal = MetricPrefix + ".tickets.operations_total"
	TicketOperationTime   = MetricPrefix + ".tickets.operation_duration"
	TicketsOpen           = MetricPrefix + ".tickets.open"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOperation = "operation"
	LabelResult    = "result"
)

// Ledger operations
const (
	OperationCreateTicket = "create_ticket"
	OperationClaim        = "claim"
	OperationCancel       = "cancel"
	OperationResolve      = "resolve"
)

// Operation results
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)
