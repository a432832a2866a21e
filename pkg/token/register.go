package token

import "sync/atomic"

// nextTokenID tracks the next available dynamic token ID.
// Dynamic tokens start after maxBuiltin (999).
var nextTokenID = int32(maxBuiltin)

// dynamicTokens maps registered dynamic tokens to their names.
var dynamicTokens = make(map[TokenType]string)

// dynamicNames maps registered dynamic token names to their types.
var dynamicNames = make(map[string]TokenType)

// Register registers a new dynamic token with the given name and returns
// its type. The lookahead filter uses this for composite tokens such as
// NULLS_FIRST that never appear in the raw scanner stream.
//
// Thread-safe for ID generation (atomic increment). Registration is
// expected at init() time; concurrent registration of the same name
// should be avoided.
func Register(name string) TokenType {
	if t, ok := dynamicNames[name]; ok {
		return t
	}

	id := atomic.AddInt32(&nextTokenID, 1)
	t := TokenType(id)

	dynamicTokens[t] = name
	dynamicNames[name] = t

	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	name, ok := dynamicTokens[t]
	return name, ok
}

// IsDynamic returns true if the token type was dynamically registered.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
