// Package gemini implements generation.Generator on top of Google's Gemini
// API.
//
// Each call renders an embedded prompt template, asks the model for a JSON
// document and converts it into domain meanings. Calls run through a
// circuit breaker: after a configured number of consecutive transport
// failures the generator fails fast with generation.ErrTransientFailure
// until the breaker half-opens again. Blocked or malformed responses do not
// count against the breaker since retrying them would not help.
package gemini
