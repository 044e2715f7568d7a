// Package aggregates holds the domain error vocabulary shared by services,
// persistence and transport. Codes are stable strings; callers branch on them
// with IsCode instead of matching messages.
package aggregates
