// Package agent implements the discovery pipeline roles: literature and
// target discovery, compound design and analysis, ADMET screening,
// validation, approval assessment and workflow control. Agents take their
// tool dependencies as narrow interfaces so tests can use fakes.
package agent
