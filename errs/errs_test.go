package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(Validation("sai dữ liệu")))
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(NotFound("không thấy")))
	assert.Equal(t, fiber.StatusConflict, HTTPStatus(Conflict("xung đột")))
	assert.Equal(t, fiber.StatusUnprocessableEntity, HTTPStatus(State("sai trạng thái")))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(errors.New("lỗi lạ")))
}

func TestKindOfThroughWrapping(t *testing.T) {
	inner := Conflict("không đủ tồn kho")
	wrapped := fmt.Errorf("checkout: %w", inner)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "không đủ tồn kho", Message(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, "Khuyến mãi đã được áp dụng", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "duplicate key")
	assert.Equal(t, "Khuyến mãi đã được áp dụng", Message(err))
}

func TestMessageFallsBackToError(t *testing.T) {
	plain := errors.New("lỗi kết nối")
	assert.Equal(t, "lỗi kết nối", Message(plain))
}
