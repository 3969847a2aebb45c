package nftconst

const (
	// Symbol is a default token symbol used by deployment tools.
	Symbol = "EXNFT"

	// TokenIDSize is the size of randomly generated token IDs.
	TokenIDSize = 32

	// NotFoundError is returned if token is missing.
	NotFoundError = "token not found"
	// CollectionNotFoundError is returned if collection is missing.
	CollectionNotFoundError = "collection does not exist"
	// NotCollectionOwnerError is returned on mint into a collection owned by
	// someone else.
	NotCollectionOwnerError = "not the collection owner"
	// EmptyMetadataURIError is returned on mint with an empty metadata URI.
	EmptyMetadataURIError = "metadata URI cannot be empty"
	// EmptyCollectionNameError is returned on collection creation with an
	// empty name.
	EmptyCollectionNameError = "collection name cannot be empty"
	// InvalidOwnerError is returned if owner is not a valid script hash.
	InvalidOwnerError = "invalid owner"
	// InvalidReceiverError is returned if transfer receiver is not a valid script hash.
	InvalidReceiverError = "invalid receiver"
	// InvalidOperatorError is returned if operator is not a valid script hash.
	InvalidOperatorError = "invalid operator"
	// TokenIDCollisionError is returned if generated token ID is already in use.
	TokenIDCollisionError = "token ID collision"
)
