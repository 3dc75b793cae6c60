// Package validate streams tabular rows through a schema and collects
// leveled diagnostics.
//
// A Validator runs three phases per file: the header is compared with the
// declared fields, every data row goes through the RowValidator and the
// constraint Evaluator, and a final sweep reports composite primary key
// duplicates. Uniqueness state lives in a Tracker owned by the Validator, so
// separate Validators can run concurrently on separate files.
package validate
