package mongostore

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	tUUID    = reflect.TypeOf(uuid.UUID{})
	tDecimal = reflect.TypeOf(decimal.Decimal{})
)

// NewRegistry stores uuid.UUID as its string form and decimal.Decimal as Decimal128.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tUUID, bsoncodec.ValueEncoderFunc(encodeUUID))
	reg.RegisterTypeDecoder(tUUID, bsoncodec.ValueDecoderFunc(decodeUUID))
	reg.RegisterTypeEncoder(tDecimal, bsoncodec.ValueEncoderFunc(encodeDecimal))
	reg.RegisterTypeDecoder(tDecimal, bsoncodec.ValueDecoderFunc(decodeDecimal))
	return reg
}

func encodeUUID(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tUUID {
		return bsoncodec.ValueEncoderError{Name: "encodeUUID", Types: []reflect.Type{tUUID}, Received: val}
	}
	return vw.WriteString(val.Interface().(uuid.UUID).String())
}

func decodeUUID(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tUUID {
		return bsoncodec.ValueDecoderError{Name: "decodeUUID", Types: []reflect.Type{tUUID}, Received: val}
	}

	var id uuid.UUID
	switch vr.Type() {
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		if id, err = uuid.Parse(s); err != nil {
			return err
		}
	case bsontype.Binary:
		data, _, err := vr.ReadBinary()
		if err != nil {
			return err
		}
		if id, err = uuid.FromBytes(data); err != nil {
			return err
		}
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into uuid.UUID", vr.Type())
	}

	val.Set(reflect.ValueOf(id))
	return nil
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "encodeDecimal", Types: []reflect.Type{tDecimal}, Received: val}
	}
	d128, err := primitive.ParseDecimal128(val.Interface().(decimal.Decimal).String())
	if err != nil {
		return err
	}
	return vw.WriteDecimal128(d128)
}

func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "decodeDecimal", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if d128, err = vr.ReadDecimal128(); err != nil {
			return err
		}
		if d, err = decimal.NewFromString(d128.String()); err != nil {
			return err
		}
	case bsontype.Double:
		var f float64
		if f, err = vr.ReadDouble(); err != nil {
			return err
		}
		d = decimal.NewFromFloat(f)
	case bsontype.Int32:
		var i int32
		if i, err = vr.ReadInt32(); err != nil {
			return err
		}
		d = decimal.NewFromInt32(i)
	case bsontype.Int64:
		var i int64
		if i, err = vr.ReadInt64(); err != nil {
			return err
		}
		d = decimal.NewFromInt(i)
	case bsontype.String:
		var s string
		if s, err = vr.ReadString(); err != nil {
			return err
		}
		if d, err = decimal.NewFromString(s); err != nil {
			return err
		}
	case bsontype.Null:
		if err = vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}

	val.Set(reflect.ValueOf(d))
	return nil
}
