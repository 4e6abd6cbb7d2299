package app

// DefaultPassThreshold is the pegging count at or above which the "go"
// affordance is offered. The authority still decides whether a go is legal.
const DefaultPassThreshold = 21

// reconnectResultBuffer sizes the reconnect answer channel so ingestion never
// blocks on a caller that stopped waiting.
const reconnectResultBuffer = 1
