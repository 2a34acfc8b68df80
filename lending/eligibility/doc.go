// Package eligibility decides whether a borrower may request an item for a period.
//
// The Checker runs the booking policy checks and then asks the external account, reputation
// and catalog collaborators. The first failing check wins.
package eligibility
