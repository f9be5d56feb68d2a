/*
Package session orchestrates draft persistence around the evaluation engine.

It serializes concurrent access per draft with reference-counted locks,
optionally extends that guarantee across replicas through a distributed
locker, and re-evaluates the workflow state on every save so callers always
observe data and verdicts that agree.
*/
package session
