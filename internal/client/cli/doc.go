// Package cli implements the interactive staffbook client.
//
// The REPL accepts:
//
//	signup              create an account and sign in
//	login               sign in with email and password
//	logout              forget the stored session
//	list                list all employees, newest first
//	search              search by department and/or position
//	show <id>           show one employee
//	add                 add an employee (optionally with a picture)
//	edit <id>           replace an employee's fields
//	delete <id>         delete an employee
//	help                list commands
//	exit | quit         leave
//
// The session (token and profile) is kept in a local SQLite file, so a login
// survives restarts. Any 401 answer clears it and the user has to log in
// again.
package cli
