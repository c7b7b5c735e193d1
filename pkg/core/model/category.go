// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "strings"

// Category is a subject which may be assigned to many books.
type Category struct {
	ID           ID     `json:"category_id"`
	Name         string `json:"category" binding:"required,max=100"`
	Descriptions string `json:"descriptions"`
}

// Normalize trims the category name.
func (c *Category) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}
