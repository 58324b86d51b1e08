// Package models defines the core domain models for FreelancePay.
//
// # Models
//
//   - User: a registered freelancer account; owns clients
//   - Client: a customer of the freelancer; owns invoices
//   - Invoice: an amount billed to one client, paid or unpaid
//   - Stats: per-user dashboard totals computed by the server
//
// The same types travel over the REST API (JSON tags) and are used by the
// server's storage layer and by the client-side application core.
//
// # Design Principles
//
// 1. **Server-assigned identity**: IDs and CreatedAt are set by the store, never by callers
// 2. **Ownership by ID**: relationships are integer IDs, not pointers
// 3. **Inputs are separate from entities**: ClientInput, InvoiceInput and InvoiceUpdate
//    carry exactly the fields a caller may set, so an update can never move an
//    invoice to another client
package models
