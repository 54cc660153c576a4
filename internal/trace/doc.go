// Package trace records what the preprocessor did and in which order.
//
// Tracing is switched on from the command line:
//
//	ablpp preprocess --trace=- --trace-level=detail main.p
//
// A run produces a tree of spans. The driver opens one span per compile
// unit, the processor opens a span for every include it descends into, and
// directives and tokens show up as point events inside those spans. Every
// event carries the unit it belongs to, so interleaved output of a
// parallel directory run can still be split per unit.
//
// Sinks are the stream tracer (writes each event at once), the ring tracer
// (keeps the last N events for a dump after a failure) and the fan-out
// tracer that feeds both.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "unit", trace.CurrentSpan(ctx).In("main.p"))
//	defer span.End("")
package trace
