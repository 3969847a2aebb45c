/*
Package marketplace implements the fixed-price marketplace contract of the
exchange.

The seller approves the marketplace in the registry and lists the token with
a price in GAS. The token is kept by the contract until it is bought or the
listing is cancelled. A purchase is a GAS transfer of exactly the item price
with the item ID as transfer data. Sellers take their proceeds with
WithdrawFunds, the same way as in the auction contract.

# Contract notifications

MarketItemCreated notification. This notification is produced when a token is
listed.

	MarketItemCreated:
	  - name: itemId
	    type: Integer
	  - name: assetContract
	    type: Hash160
	  - name: tokenId
	    type: ByteArray
	  - name: seller
	    type: Hash160
	  - name: price
	    type: Integer

MarketItemSold notification.

	MarketItemSold:
	  - name: itemId
	    type: Integer
	  - name: buyer
	    type: Hash160
	  - name: price
	    type: Integer

MarketItemCancelled notification.

	MarketItemCancelled:
	  - name: itemId
	    type: Integer

FundsWithdrawn notification.

	FundsWithdrawn:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package marketplace

/*
Contract storage model.

	# Summary
	Key-value storage format:
	 - 'i' + ripemd160(item ID) -> std.Serialize(MarketItem)
	   market items
	 - 'n' -> int
	   last item ID
	 - 's' + seller + ripemd160(item ID) -> item ID
	   seller items index
	 - 'c' + sha256(asset contract + token ID) -> 1
	   custody marker, present only during ListItem
	 - 'w' + account -> int
	   pending withdrawals
	 - 't' -> int
	   sum of pending withdrawals
*/
