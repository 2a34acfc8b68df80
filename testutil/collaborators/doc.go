// Package collaborators provides in-memory fakes of the external account, reputation and catalog
// services and a spy for the transition-event stream, for tests of the lending packages.
package collaborators
