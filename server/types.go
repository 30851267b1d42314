package server

import (
	"encoding/json"
	"fmt"
	"go/types"
	"log"
	"net/http"
)

// HumanPayload is the JSON envelope every generichttp getter responds
// with: a type tag plus exactly one populated field, so a human poking
// an endpoint with curl sees a value in the field they'd expect
// ({"float": 1.23}, not a type-erased {"value": 1.23}).
type HumanPayload struct {
	T types.BasicKind

	Float  float64 `json:"float,omitempty"`
	Int    int     `json:"int,omitempty"`
	String string  `json:"string,omitempty"`
	Bool   bool    `json:"bool,omitempty"`
}

// EncodeAndRespond writes hp to w as JSON with a 200 status.
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(hp); err != nil {
		fstr := fmt.Sprintf("error encoding human payload to json %q", err)
		log.Println(fstr)
	}
}

// FloatT decodes a JSON request body of the form {"f64": value}.
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT decodes a JSON request body of the form {"int": value}.
type IntT struct {
	Int int `json:"int"`
}

// StrT decodes a JSON request body of the form {"str": value}.
type StrT struct {
	Str string `json:"str"`
}

// BoolT decodes a JSON request body of the form {"bool": value}.
type BoolT struct {
	Bool bool `json:"bool"`
}
