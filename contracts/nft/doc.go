/*
Package nft implements the asset registry contract of the exchange.

The registry is a NEP-11 non-divisible token contract. Tokens are grouped into
collections: anyone can create a collection, and only its owner can mint tokens
into it. Token IDs are random 32-byte values. Every token keeps the metadata URI
and the creator's address.

Besides NEP-11 methods, the registry lets the owner delegate transfers to other
contracts. An operator can be approved for a single token (cleared on every
transfer) or for all tokens of the owner. Auction and marketplace contracts rely
on this: they check the approval with isAuthorized and then call transfer
themselves to take the token into custody.

# Contract notifications

Transfer notification. This is a NEP-11 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray

CollectionCreated notification. This notification is produced when a new
collection is created.

	CollectionCreated:
	  - name: collectionId
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: name
	    type: String

NFTMinted notification. This notification is produced together with Transfer
one when a new token is minted.

	NFTMinted:
	  - name: owner
	    type: Hash160
	  - name: tokenId
	    type: ByteArray
	  - name: collectionId
	    type: Integer
	  - name: metadataURI
	    type: String

Approval notification. Operator is null when approval is revoked.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: operator
	    type: Hash160
	  - name: tokenId
	    type: ByteArray

ApprovalForAll notification.

	ApprovalForAll:
	  - name: owner
	    type: Hash160
	  - name: operator
	    type: Hash160
	  - name: approved
	    type: Boolean
*/
package nft

/*
Contract storage model.

	# Summary
	Key-value storage format:
	 - 0x00 -> int
	   total supply
	 - 0x01 + owner -> int
	   number of tokens owned
	 - 0x02 + owner + ripemd160(token ID) -> token ID
	   owned tokens index
	 - 0x10 + ripemd160(collection ID) -> std.Serialize(Collection)
	   collections
	 - 0x11 -> int
	   last collection ID
	 - 0x12 + ripemd160(collection ID) + ripemd160(token ID) -> token ID
	   collection tokens index
	 - 0x20 + ripemd160(token ID) -> std.Serialize(Token)
	   tokens
	 - 0x30 + ripemd160(token ID) -> interop.Hash160
	   operator approved for the token
	 - 0x31 + owner + operator -> 1
	   operator approved for all tokens of the owner
	 - 'name' -> string
	 - 'symbol' -> string
*/
