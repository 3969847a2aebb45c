package marketconst

const (
	// NotAssetOwnerError is returned if item is listed by someone who doesn't
	// own the asset.
	NotAssetOwnerError = "not the asset owner"
	// NotSellerError is returned on cancellation by someone other than the seller.
	NotSellerError = "only the seller can cancel the listing"
	// NotAuthorizedError is returned if the marketplace is not approved to
	// transfer the asset.
	NotAuthorizedError = "not authorized to transfer the asset"

	// NotFoundError is returned if item is missing.
	NotFoundError = "market item does not exist"
	// NotActiveError is returned on purchase or cancellation of a sold or
	// cancelled item.
	NotActiveError = "market item is not active"

	// InvalidPriceError is returned if listing price is not positive.
	InvalidPriceError = "price must be positive"
	// PriceMismatchError is returned if payment differs from the listing price.
	PriceMismatchError = "payment must be equal to the item price"

	// AssetTransferFailedError is returned if the registry declines the transfer.
	AssetTransferFailedError = "asset transfer failed"
	// UnexpectedAssetError is returned if a token is sent to the contract
	// outside of listing.
	UnexpectedAssetError = "unexpected asset transfer"
	// OnlyGASError is returned if purchase is paid with a token other than GAS.
	OnlyGASError = "marketplace contract accepts GAS only"
	// InvalidPurchaseDataError is returned if payment data is not an item ID.
	InvalidPurchaseDataError = "invalid purchase data"
	// InvalidAddressError is returned if an argument is not a valid script hash.
	InvalidAddressError = "invalid address"
)
