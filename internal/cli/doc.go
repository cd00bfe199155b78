// Package cli provides the interactive storefront account console.
//
// It wires configuration, the chosen storage backend, the user store, the
// session manager and the account/admin services into a REPL. On start the
// session manager is initialized (seeding an empty store from the snapshot
// source) and the persisted session, if any, is restored.
//
// Commands:
//   - init, login, logout, whoami
//   - register, profile, passwd, unregister
//   - users [email=.. role=.. status=..], toggle <email> (admin only)
//   - help, exit
//
// The REPL is started via App.Run, which blocks until the user exits.
package cli
