// Package docdex provides an embedded Go client for the docdex document
// store backed by PostgreSQL.
//
// The client wires the same storage and service layers the HTTP server
// uses, without going through HTTP:
//
//	client, _ := docdex.New(ctx,
//	    docdex.WithPostgres("postgres://localhost:5432/docdex"),
//	)
//	defer client.Close()
//
//	doc, _ := client.Documents().Create(ctx, "Invoice 2026-001",
//	    []byte(`{"amount": 42}`), []string{"finance"},
//	)
//	hits, _ := client.Documents().Search(ctx, "invoice", 10)
package docdex
