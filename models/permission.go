package models

import "github.com/uptrace/bun"

// Permission is an entitlement flag granting a profile access to a named
// product. The insights pipeline only ever reads these.
type Permission struct {
	bun.BaseModel `bun:"table:user_permissions,alias:up"`

	ID        int    `bun:"id,pk,autoincrement" json:"id"`
	ProfileID string `bun:"profile_id,notnull,type:uuid,unique:user_permissions_no_dupes" json:"profileID"`
	ProductID string `bun:"product_id,notnull,unique:user_permissions_no_dupes" json:"productID"`
	Active    bool   `bun:"active,notnull,default:true" json:"active"`
}
