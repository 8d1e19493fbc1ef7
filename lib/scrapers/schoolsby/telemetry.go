package schoolsby

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/schoolsby")
