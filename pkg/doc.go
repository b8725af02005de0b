// Package jose implements the core of JavaScript Object Signing and
// Encryption (JOSE): JSON Web Key (JWK) management and JSON Web
// Encryption (JWE).
//
// Related RFCs:
//  - RFC7516 https://datatracker.ietf.org/doc/html/rfc7516 JWE, JSON Web Encryption
//  - RFC7517 https://datatracker.ietf.org/doc/html/rfc7517 JWK, JSON Web Key
//  - RFC7518 https://datatracker.ietf.org/doc/html/rfc7518 JWA, JSON Web Algorithms
//  - RFC4648 https://datatracker.ietf.org/doc/html/rfc4648 Base64url encoding
//
// Signing (JWS) and JSON Web Tokens (JWT) are not implemented by this
// module; see the module's design notes for the reasoning.
package jose
