/*
Package gate implements the access control gate: the single dispatcher every
request passes through.

The gate owns the authorization policy table:

	instantiate          anyone, first call only
	update_strongbox     current owner
	create_viewing_key   current owner
	transfer_ownership   current owner
	revoke_viewing_key   current owner
	get_strongbox        anyone presenting a live key for the claimed viewer

Owner checks re-read the owner record from the state store on every request
and compare it to the explicit caller identity by exact equality; any
mismatch short-circuits before the underlying component is touched. The
execute and query message sets are closed: adding an operation means adding
a variant in the interfaces package and a match arm here.
*/
package gate
