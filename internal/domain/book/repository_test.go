package book

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Save(ctx context.Context, b *Book) error {
	ret := _m.Called(ctx, b)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Book) error); ok {
		r0 = rf(ctx, b)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) Update(ctx context.Context, b *Book) error {
	ret := _m.Called(ctx, b)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Book) error); ok {
		r0 = rf(ctx, b)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) FindByID(ctx context.Context, bookID int64) (*Book, error) {
	ret := _m.Called(ctx, bookID)

	var r0 *Book
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Book); ok {
		r0 = rf(ctx, bookID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Book)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, bookID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	ret := _m.Called(ctx, isbn)

	var r0 *Book
	if rf, ok := ret.Get(0).(func(context.Context, string) *Book); ok {
		r0 = rf(ctx, isbn)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Book)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, isbn)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) FindByTitle(ctx context.Context, title string) (*Book, error) {
	ret := _m.Called(ctx, title)

	var r0 *Book
	if rf, ok := ret.Get(0).(func(context.Context, string) *Book); ok {
		r0 = rf(ctx, title)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Book)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, title)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) FindAll(ctx context.Context) ([]*Book, error) {
	ret := _m.Called(ctx)

	var r0 []*Book
	if rf, ok := ret.Get(0).(func(context.Context) []*Book); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*Book)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) Delete(ctx context.Context, bookID int64) error {
	ret := _m.Called(ctx, bookID)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, bookID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockRepository) SetStatus(ctx context.Context, bookID int64, status Status) error {
	ret := _m.Called(ctx, bookID, status)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, Status) error); ok {
		r0 = rf(ctx, bookID, status)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
