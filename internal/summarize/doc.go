// Package summarize turns the comments that mention a neighborhood into a
// structured list of pros and cons using an LLM provider.
//
// The prompt has three ordered parts: a framing line naming the
// neighborhood, the instructions (evidence only from the comments, a
// low/medium/high severity reflecting corroboration, no unverified opinion),
// and the comment list with upvotes. Every request carries [ResponseSchema].
//
// Responses go through [ParseSummary], which accepts only an object with
// "pros" and "cons" arrays of {name, severity} items. Anything else is a
// [*ValidationError] and the call is retried. Retries use a fixed delay and
// no attempt cap unless configured otherwise; only credential problems stop
// the loop early.
package summarize
