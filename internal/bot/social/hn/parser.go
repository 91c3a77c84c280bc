/*
   hnotify - Hacker News comment replies notifier
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package hn

import (
	"strings"

	"Unbewohnte/hnotify/internal/db"

	"github.com/PuerkitoBio/goquery"
)

// Селекторы страницы threads?id=
const (
	titleSelector  = "span.age[title]"
	bodySelector   = "div.comment .commtext.c00:not(.reply)"
	authorSelector = "a.hnuser"
)

// Хвост, который интерфейс сайта дописывает к тексту комментария
const replySuffix = "reply"

// ParseComments extracts comment records from a threads page.
//
// The title, body and author selections are paired by position in document
// order. The markup carries no key to match them by, so when one selection is
// shorter the extra rows of the others are dropped.
func ParseComments(html string) []db.Comment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []db.Comment{}
	}

	titles := doc.Find(titleSelector).Map(func(_ int, s *goquery.Selection) string {
		title, _ := s.Attr("title")
		return title
	})
	bodies := doc.Find(bodySelector).Map(func(_ int, s *goquery.Selection) string {
		return StripReplySuffix(s.Text())
	})
	authors := doc.Find(authorSelector).Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})

	count := min(len(titles), len(bodies), len(authors))
	comments := make([]db.Comment, 0, count)
	for i := 0; i < count; i++ {
		comments = append(comments, db.Comment{
			Author: authors[i],
			Title:  titles[i],
			Body:   bodies[i],
		})
	}

	return comments
}

// StripReplySuffix trims the text and removes a trailing "reply" left by the
// page chrome, so the same comment hashes identically with or without it.
func StripReplySuffix(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, replySuffix) {
		return strings.TrimSpace(strings.TrimSuffix(trimmed, replySuffix))
	}
	return trimmed
}
