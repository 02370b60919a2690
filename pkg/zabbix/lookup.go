package zabbix

import (
	"context"

	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// nameFields lists objects not filtered by "name".
var nameFields = map[string]string{
	"mediatype":        "description",
	"trigger":          "description",
	"triggerprototype": "description",
	"user":             "alias",
	"usermacro":        "macro",
}

// idPrefixes lists objects whose id field is not "<object>id".
var idPrefixes = map[string]string{
	"discoveryrule":    "item",
	"graphprototype":   "graph",
	"hostgroup":        "group",
	"itemprototype":    "item",
	"map":              "selement",
	"triggerprototype": "trigger",
	"usergroup":        "usrgrp",
	"usermacro":        "hostmacro",
}

// NameField returns the field GetID filters on for objectType.
func NameField(objectType string) string {
	if field, ok := nameFields[objectType]; ok {
		return field
	}

	return "name"
}

// IDField returns the field holding the identifier of objectType.
func IDField(objectType string) string {
	if prefix, ok := idPrefixes[objectType]; ok {
		return prefix + "id"
	}

	return objectType + "id"
}

type lookup struct {
	filter Params
	params Params
}

// LookupOption narrows a GetID query.
type LookupOption func(*lookup)

// WithHostID restricts the lookup to objects of one host.
func WithHostID(id any) LookupOption {
	return func(l *lookup) {
		l.params["hostids"] = id
	}
}

// WithFilter adds an exact-match filter on key.
func WithFilter(key string, value any) LookupOption {
	return func(l *lookup) {
		l.filter[key] = value
	}
}

/*
GetID resolves name to the numeric id of exactly one objectType. It sends
"<objectType>.get" with output "extend" and a filter on the object's name
field. Zero or several matches, or an id that is not a number, give a
*errors.LookupError. Call errors are returned as they are.
*/
func (c *Client) GetID(ctx context.Context, objectType, name string, opts ...LookupOption) (int, error) {
	l := &lookup{
		filter: Params{NameField(objectType): name},
		params: Params{},
	}

	for _, opt := range opts {
		opt(l)
	}

	l.params["output"] = "extend"
	l.params["filter"] = l.filter

	result, err := c.Object(objectType).Get(ctx, l.params)
	if err != nil {
		return 0, err
	}

	records := gjson.ParseBytes(result)
	if !records.IsArray() {
		return 0, &errors.LookupError{ObjectType: objectType, Name: name, Reason: "result is not a list"}
	}

	count := int(records.Get("#").Int())
	if count != 1 {
		return 0, &errors.LookupError{ObjectType: objectType, Name: name, Count: count}
	}

	field := IDField(objectType)
	raw := records.Get("0." + field)

	if !raw.Exists() {
		return 0, &errors.LookupError{
			ObjectType: objectType, Name: name, Count: 1,
			Reason: "record has no " + field,
		}
	}

	id, err := cast.ToIntE(raw.Value())
	if err != nil {
		return 0, &errors.LookupError{
			ObjectType: objectType, Name: name, Count: 1,
			Reason: field + " is not numeric: " + raw.String(),
		}
	}

	c.logger.Debug("resolved id", "object", objectType, "name", name, field, id)

	return id, nil
}
