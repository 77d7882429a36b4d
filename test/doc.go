// Package test provides infrastructure and utilities for integration testing of the VERSE API.
//
// A Suite runs the real fiber application behind an httptest server, backed by an
// in-memory sqlite database and a local artifact store rooted in a temporary
// directory. Callers talk to it through the real API client.
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    suite := test.NewSuite(t)
//	    defer suite.Cleanup()
//
//	    owner := suite.NewUserClient("owner@example.com")
//	    model, err := owner.CreateModel(suite.Context(), params)
//	}
package test
