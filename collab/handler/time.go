package handler

import (
	"strconv"
	"time"

	"github.com/vectorcanvas/core/schema"
)

func docID(s string) schema.DocumentID { return schema.DocumentID(s) }

func nowString() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
