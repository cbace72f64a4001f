package borsh_test

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyli-org/explorer/internal/borsh"
	"github.com/hyli-org/explorer/internal/borsh/borshtest"
)

func sampleSchema() *borsh.Schema {
	return borsh.Struct(
		borsh.F("id", borsh.U128()),
		borsh.F("delta", borsh.I64()),
		borsh.F("ratio", borsh.F64()),
		borsh.F("ok", borsh.Bool()),
		borsh.F("name", borsh.String()),
		borsh.F("root", borsh.FixedBytes(32)),
		borsh.F("data", borsh.Bytes()),
		borsh.F("limit", borsh.Option(borsh.U32())),
		borsh.F("tags", borsh.Vec(borsh.String())),
		borsh.F("pair", borsh.Tuple(borsh.U8(), borsh.I128())),
		borsh.F("mode", borsh.Enum(
			borsh.F("Off", borsh.Unit()),
			borsh.F("Fixed", borsh.U16()),
			borsh.F("Named", borsh.Struct(borsh.F("label", borsh.String()))),
		)),
	)
}

func TestIntegersLittleEndian(t *testing.T) {
	v, err := borsh.Unmarshal(borsh.U32(), []byte{0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)
	assert.Equal(t, "67305985", v.Int.String())

	v, err = borsh.Unmarshal(borsh.I16(), []byte{0xfe, 0xff})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), v.Int.Int64())

	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = 0xff
	}
	v, err = borsh.Unmarshal(borsh.U128(), buf)
	require.NoError(t, err)
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	assert.Equal(t, 0, v.Int.Cmp(max))

	v, err = borsh.Unmarshal(borsh.I128(), buf)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.Int.Int64())
}

func TestRoundTripRandomValues(t *testing.T) {
	f := gofakeit.New(42)
	schema := sampleSchema()

	for i := 0; i < 500; i++ {
		want := borshtest.Value(f, schema)
		buf, err := borsh.Marshal(schema, want)
		require.NoError(t, err)

		got, err := borsh.Unmarshal(schema, buf)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "iteration %d: round trip mismatch", i)
	}
}

func TestDecodeAtOffset(t *testing.T) {
	buf := []byte{0xaa, 0xbb, 0x05, 0x00, 0x00, 0x00, 0xcc}
	v, next, err := borsh.Decode(borsh.U32(), buf, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v.Int.Uint64())
	assert.Equal(t, 6, next)

	_, _, err = borsh.Decode(borsh.U8(), buf, 8)
	assert.ErrorIs(t, err, borsh.ErrBufferUnderrun)
}

func TestTruncatedMinimalEncodingUnderruns(t *testing.T) {
	schema := sampleSchema()
	buf, err := borsh.Marshal(schema, borshtest.Minimal(schema))
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	_, err = borsh.Unmarshal(schema, buf[:len(buf)-1])
	require.Error(t, err)

	var underrun *borsh.BufferUnderrunError
	require.True(t, errors.As(err, &underrun), "got %v", err)
	assert.Equal(t, 1, underrun.Needed-underrun.Available)
}

func TestTruncatedStringReportsNeeded(t *testing.T) {
	_, err := borsh.Unmarshal(borsh.String(), []byte{0x05, 0x00, 0x00, 0x00, 'a', 'b'})
	var underrun *borsh.BufferUnderrunError
	require.ErrorAs(t, err, &underrun)
	assert.Equal(t, 5, underrun.Needed)
	assert.Equal(t, 2, underrun.Available)
}

func TestEnumTagBound(t *testing.T) {
	schema := borsh.Enum(
		borsh.F("A", borsh.Unit()),
		borsh.F("B", borsh.U8()),
		borsh.F("C", borsh.String()),
	)

	for _, tag := range []byte{3, 4, 255} {
		_, err := borsh.Unmarshal(schema, []byte{tag, 0, 0, 0, 0})
		var invalid *borsh.InvalidTagError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, int(tag), invalid.Tag)
		assert.Equal(t, 2, invalid.MaxValid)
	}
}

func TestBoolAndOptionTagBound(t *testing.T) {
	_, err := borsh.Unmarshal(borsh.Bool(), []byte{2})
	assert.ErrorIs(t, err, borsh.ErrInvalidTag)

	_, err = borsh.Unmarshal(borsh.Option(borsh.U8()), []byte{7, 1})
	var invalid *borsh.InvalidTagError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 7, invalid.Tag)
	assert.Equal(t, 1, invalid.MaxValid)
}

func TestInvalidUTF8(t *testing.T) {
	_, err := borsh.Unmarshal(borsh.String(), []byte{0x02, 0x00, 0x00, 0x00, 0xc3, 0x28})
	assert.ErrorIs(t, err, borsh.ErrInvalidUTF8)
}

func TestTrailingBytes(t *testing.T) {
	_, err := borsh.Unmarshal(borsh.U16(), []byte{1, 0, 9})
	var trailing *borsh.TrailingBytesError
	require.ErrorAs(t, err, &trailing)
	assert.Equal(t, 2, trailing.Consumed)
	assert.Equal(t, 3, trailing.Total)

	v, next, err := borsh.Decode(borsh.U16(), []byte{1, 0, 9}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
	assert.Equal(t, uint64(1), v.Int.Uint64())
}

func TestCheckLength(t *testing.T) {
	err := borsh.CheckLength(make([]byte, 127), 128)
	var mismatch *borsh.LengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 128, mismatch.Expected)
	assert.Equal(t, 127, mismatch.Actual)
	assert.NoError(t, borsh.CheckLength(make([]byte, 128), 128))
}

func TestErrorPathIsWrapped(t *testing.T) {
	schema := borsh.Struct(
		borsh.F("account", borsh.String()),
		borsh.F("auth", borsh.Enum(borsh.F("Password", borsh.Struct(borsh.F("hash", borsh.String()))))),
	)
	buf := []byte{0, 0, 0, 0, 0, 9, 0, 0, 0}
	_, err := borsh.Unmarshal(schema, buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth: Password: hash:")
	assert.ErrorIs(t, err, borsh.ErrBufferUnderrun)
}

func TestHostileVecCount(t *testing.T) {
	_, err := borsh.Unmarshal(borsh.Vec(borsh.U64()), []byte{0xff, 0xff, 0xff, 0xff, 1})
	assert.ErrorIs(t, err, borsh.ErrBufferUnderrun)

	for _, elem := range []*borsh.Schema{
		borsh.Unit(),
		borsh.Tuple(borsh.Unit(), borsh.FixedBytes(0)),
		borsh.Struct(borsh.F("empty", borsh.Struct())),
	} {
		_, _, err = borsh.Decode(borsh.Vec(elem), []byte{0xaa, 0x00, 0x00, 0x00, 0x04}, 1)
		var zero *borsh.ZeroSizedVecError
		require.ErrorAs(t, err, &zero, elem.String())
		assert.Equal(t, 1, zero.Offset)
		assert.Equal(t, 0x04000000, zero.Count)
	}

	v, err := borsh.Unmarshal(borsh.Vec(borsh.Unit()), []byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Empty(t, v.Items)

	_, err = borsh.Marshal(borsh.Vec(borsh.Unit()), borsh.NewVec(borsh.NewUnit()))
	assert.ErrorIs(t, err, borsh.ErrZeroSizedVec)
}

func TestOutOfRangeOffset(t *testing.T) {
	_, next, err := borsh.Decode(borsh.U8(), []byte{1, 2}, 5)
	var underrun *borsh.BufferUnderrunError
	require.ErrorAs(t, err, &underrun)
	assert.Equal(t, 5, underrun.Offset)
	assert.Equal(t, 0, underrun.Needed)
	assert.Equal(t, 2, underrun.Available)
	assert.Equal(t, 5, next)
}

func TestMarshalRejectsOutOfRange(t *testing.T) {
	_, err := borsh.Marshal(borsh.U8(), borsh.NewUint(1, 256))
	assert.ErrorIs(t, err, borsh.ErrIntegerRange)

	_, err = borsh.Marshal(borsh.I8(), borsh.NewSint(1, -129))
	assert.ErrorIs(t, err, borsh.ErrIntegerRange)

	_, err = borsh.Marshal(borsh.U8(), borsh.NewString("x"))
	assert.ErrorIs(t, err, borsh.ErrValueMismatch)

	_, err = borsh.Marshal(borsh.FixedBytes(4), borsh.NewFixedBytes([]byte{1}))
	assert.ErrorIs(t, err, borsh.ErrLengthMismatch)
}

func TestMarshalSignedTwosComplement(t *testing.T) {
	buf, err := borsh.Marshal(borsh.I32(), borsh.NewSint(4, -2))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, buf)
}

func TestValueJSON(t *testing.T) {
	schema := borsh.Struct(
		borsh.F("nonce", borsh.U128()),
		borsh.F("small", borsh.U32()),
		borsh.F("root", borsh.FixedBytes(2)),
		borsh.F("price", borsh.Option(borsh.U32())),
		borsh.F("side", borsh.Enum(borsh.F("Buy", borsh.Unit()), borsh.F("Sell", borsh.Unit()))),
	)
	v := borsh.NewStruct(
		borsh.Named("nonce", borsh.NewUint(16, 7)),
		borsh.Named("small", borsh.NewUint(4, 9)),
		borsh.Named("root", borsh.NewFixedBytes([]byte{0xAB, 0x01})),
		borsh.Named("price", borsh.None()),
		borsh.Named("side", borsh.NewEnum(1, "Sell", borsh.NewUnit())),
	)
	buf, err := borsh.Marshal(schema, v)
	require.NoError(t, err)
	decoded, err := borsh.Unmarshal(schema, buf)
	require.NoError(t, err)

	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, `{"nonce":"7","small":9,"root":"ab01","price":null,"side":{"Sell":{}}}`, string(out))
}

func TestValuePathAndWith(t *testing.T) {
	v := borsh.NewStruct(
		borsh.Named("caller", borsh.None()),
		borsh.Named("parameters", borsh.NewTuple(
			borsh.NewUint(16, 1),
			borsh.NewEnum(0, "Withdraw", borsh.NewStruct(borsh.Named("amount", borsh.NewUint(16, 5)))),
		)),
	)
	amount, ok := v.Path("parameters", "1", "amount")
	require.True(t, ok)
	assert.Equal(t, uint64(5), amount.Int.Uint64())

	replaced := v.With("caller", borsh.Some(borsh.NewUint(8, 3)))
	caller, _ := replaced.Field("caller")
	require.NotNil(t, caller.Some)
	original, _ := v.Field("caller")
	assert.Nil(t, original.Some)

	seq := borsh.NewVec(borsh.NewString("a"), borsh.NewString("b"))
	second, ok := seq.Index(1)
	require.True(t, ok)
	assert.Equal(t, "b", second.Str)
	_, ok = seq.Index(2)
	assert.False(t, ok)
}

func TestSchemaString(t *testing.T) {
	schema := borsh.Struct(
		borsh.F("id", borsh.Tuple(borsh.U128(), borsh.Vec(borsh.String()))),
		borsh.F("w", borsh.Enum(borsh.F("NoTimeout", borsh.Unit()), borsh.F("Timeout", borsh.U64()))),
	)
	assert.Equal(t, "{id: (u128, Vec<String>), w: enum {NoTimeout, Timeout u64}}", schema.String())
}
