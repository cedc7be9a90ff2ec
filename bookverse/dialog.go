package bookverse

import "context"

// AuthDialog is the login/register prompt shared by every page.
type AuthDialog struct {
	session *SessionController
	mode    AuthMode
	open    bool
}

func NewAuthDialog(session *SessionController) *AuthDialog {
	return &AuthDialog{session: session}
}

// Open shows the dialog in login mode.
func (d *AuthDialog) Open() {
	d.mode = ModeLogin
	d.open = true
}

func (d *AuthDialog) Close()         { d.open = false }
func (d *AuthDialog) IsOpen() bool   { return d.open }
func (d *AuthDialog) Mode() AuthMode { return d.mode }

// Title is the heading for the current mode.
func (d *AuthDialog) Title() string {
	if d.mode == ModeRegister {
		return "Register"
	}
	return "Login"
}

// Toggle flips between login and register. Callers clear the form after each
// toggle; only Submit reports ClearForm.
func (d *AuthDialog) Toggle() {
	if d.mode == ModeLogin {
		d.mode = ModeRegister
	} else {
		d.mode = ModeLogin
	}
}

// SubmitResult extends Result with what the dialog form should do next.
type SubmitResult struct {
	Result
	ClearForm bool
}

// Submit sends the credentials in the current mode. Nothing about the dialog
// changes until the request settles.
func (d *AuthDialog) Submit(ctx context.Context, email, password string) SubmitResult {
	res := d.session.Authenticate(ctx, d.mode, email, password)
	if res.Outcome != Ok {
		return SubmitResult{Result: res}
	}
	if d.mode == ModeLogin {
		d.Close()
		return SubmitResult{Result: res, ClearForm: true}
	}
	d.Toggle()
	return SubmitResult{Result: res, ClearForm: true}
}
