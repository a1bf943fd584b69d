// Package leads implements the lead inbox workflow: listing and filtering
// inbound leads, reassigning campaign attribution, and the AI-assisted batch
// remap of unmapped leads via the hosted function-invocation endpoint.
package leads
