// Package auth verifies credentials and manages user accounts and sessions.
//
// Service is wired explicitly with a UserStore (see core/userstore) and a
// SessionStore (see core/session):
//
//	svc := auth.New(userstore.NewMemory(), session.New(),
//		auth.WithBootstrapAccounts(auth.Account{Username: "admin", Password: pw}),
//	)
//	if err := svc.Bootstrap(ctx); err != nil {
//		return err
//	}
//	id, err := svc.Login(ctx, "admin", pw)
//
// Passwords are stored as bcrypt. Accounts still holding the legacy
// "salt:sha256hex" format are migrated to bcrypt on their next successful
// login. Failed logins never reveal whether the username exists.
package auth
