/*
Package authsdk provides a client SDK for the Care Cube authentication service.

# Overview

The service authenticates end users with two cookies: a short-lived
accessToken JWT and a longer-lived userId reference. Client keeps both in a
cookie jar, so a sequence of calls behaves like a browser session:

	client, err := authsdk.NewClient("https://auth.example.com")
	if err != nil {
		return err
	}

	// Create an account; the session cookies are stored on success
	resp, err := client.SignUp(ctx, authsdk.SignUpRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})

	// Later calls reuse the cookies and pick up renewed access tokens
	me, err := client.CurrentUser(ctx)

# Email Verification

Sign-up sends a verification code by email. Request another one with
RequestVerificationCode and redeem it with VerifyEmail:

	err := client.VerifyEmail(ctx, 4821)
	if errors.Is(err, authsdk.ErrInvalidCode) {
		// wrong, expired or already used code
	}

# Errors

Every non-2xx response is returned as *APIError. The predefined values in this
package match on status code and message, so errors.Is works against them.
The same values are used by the server to write its responses.
*/
package authsdk
