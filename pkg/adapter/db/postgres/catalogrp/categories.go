// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalogrp

import (
	"github.com/momeni/clean-library/pkg/core/filter"
	"github.com/momeni/clean-library/pkg/core/model"
	"github.com/momeni/clean-library/pkg/core/repo"
)

type gCategory struct {
	CategoryID   model.ID `gorm:"primaryKey;column:category_id"`
	Category     string   `gorm:"column:category"`
	Descriptions string   `gorm:"column:descriptions"`
}

func (gc *gCategory) TableName() string {
	return "categories"
}

func (gc *gCategory) Key() model.ID {
	return gc.CategoryID
}

func (gc *gCategory) Model() *model.Category {
	return &model.Category{
		ID:           gc.CategoryID,
		Name:         gc.Category,
		Descriptions: gc.Descriptions,
	}
}

func (gc *gCategory) Fill(c *model.Category) {
	gc.Category = c.Name
	gc.Descriptions = c.Descriptions
}

// NewCategories instantiates the categories repository.
func NewCategories() repo.Categories {
	return &Repo[model.Category, gCategory, *gCategory]{
		schema: filter.Categories,
	}
}
