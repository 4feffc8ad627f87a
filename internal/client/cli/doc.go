// Package cli provides the interactive VaultPass command-line client.
//
// It wires configuration, the local session store, the API gateway, and an
// interactive REPL. Typical flow: restore the persisted session (hydrate),
// then execute user commands against the backend.
//
// Key features:
//   - Register / Login / Logout, with email-verification and
//     password-recovery commands
//   - List / Show / Search stored credentials
//   - Reveal a credential's password (decrypted server-side)
//   - Add / Edit / Delete credentials, server-side password generation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
