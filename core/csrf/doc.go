// Package csrf issues and validates single-use anti-forgery tokens.
//
// A token is 32 random bytes encoded as unpadded base64url. It is valid for one
// successful Validate call within the validity window (30 minutes by default).
// Tokens are process-wide and not bound to a session or user.
//
//	svc := csrf.New(csrf.NewMemoryStore())
//	token, err := svc.Issue(ctx)
//	// embed token in a form, then on submit:
//	if !svc.Validate(ctx, submitted) {
//		// 403
//	}
//
// Expired entries are pruned on every issue and by a background sweep started
// with Start or Run. The Redis store shares tokens across instances and relies
// on key expiry instead of sweeping.
package csrf
