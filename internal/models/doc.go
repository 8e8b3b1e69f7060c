// Package models defines the core domain models for Splitsavvy.
//
// # Models
//
//   - User: a person who can take part in groups
//   - Group: a named set of users who share expenses
//   - Expense: an amount paid by one user and owed by a set of split participants
//   - Settlement: a recorded payment between two group members
//
// # Design Principles
//
// 1. **Ids, not pointers**: relationships use ID strings (UUIDs)
// 2. **Exact money**: amounts are decimal.Decimal, never float64
// 3. **Transient results**: balances and settlement plans are not models;
// they are recomputed from expenses on every request (see package calculator)
package models
