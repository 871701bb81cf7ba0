// Package jwt provides JSON Web Token utilities for the job board API.
//
// The jwt package handles token generation, validation, and claims
// extraction for authentication and email verification.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    AccessSecret:   "access-secret",
//	    EmailSecret:    "email-secret",
//	    Issuer:         "openboard",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(userID, email)
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// # Purposes
//
// Tokens carry a purpose in the audience claim. Access tokens and email
// verification tokens use separate secrets and never verify against each
// other:
//
//	link, err := service.SignEmailVerification(userID, email)
//	claims, err := service.ValidateEmailVerification(link)
package jwt
