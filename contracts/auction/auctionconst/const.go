package auctionconst

const (
	// NotAssetOwnerError is returned if auction is created by someone who
	// doesn't own the asset.
	NotAssetOwnerError = "not the asset owner"
	// NotSellerError is returned on cancellation by someone other than the seller.
	NotSellerError = "only the seller can cancel the auction"
	// NotAuthorizedError is returned if the auction contract is not approved
	// to transfer the asset.
	NotAuthorizedError = "not authorized to transfer the asset"

	// AlreadyExistsError is returned if there is an active auction for the asset.
	AlreadyExistsError = "auction already exists"
	// NotFoundError is returned if there is no active auction for the asset.
	NotFoundError = "auction does not exist"
	// EndedError is returned on bids after the deadline.
	EndedError = "auction has ended"
	// NotEndedError is returned on finalization before the deadline.
	NotEndedError = "auction has not ended"
	// HasBidsError is returned on cancellation of an auction with bids.
	HasBidsError = "cannot cancel auction with bids"

	// InvalidStartingBidError is returned if starting bid is not positive.
	InvalidStartingBidError = "starting bid must be positive"
	// InvalidDurationError is returned if auction duration is not positive.
	InvalidDurationError = "duration must be positive"
	// BelowStartingBidError is returned if bid is less than the starting bid.
	BelowStartingBidError = "bid is below the starting bid"
	// BidTooLowError is returned if bid doesn't exceed the current highest bid.
	BidTooLowError = "bid must be higher than the current highest bid"

	// AssetTransferFailedError is returned if the registry declines the transfer.
	AssetTransferFailedError = "asset transfer failed"
	// UnexpectedAssetError is returned if a token is sent to the contract
	// outside of auction creation.
	UnexpectedAssetError = "unexpected asset transfer"
	// OnlyGASError is returned if bid is paid with a token other than GAS.
	OnlyGASError = "auction contract accepts GAS only"
	// InvalidBidDataError is returned if payment data doesn't name an auction.
	InvalidBidDataError = "invalid bid data"
	// InvalidAddressError is returned if an argument is not a valid script hash.
	InvalidAddressError = "invalid address"
)
