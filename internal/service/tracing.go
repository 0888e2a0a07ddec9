package service

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/nurpe/balance-ledger/internal/service")
