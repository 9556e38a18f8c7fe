package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

// NewValidator 带中文翻译的校验器
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}
	return validate, trans, nil
}

// TranslateError 把校验错误翻译成第一条中文提示，其余错误原样返回
func TranslateError(err error, trans ut.Translator) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return errors.New(validationErrors[0].Translate(trans))
	}
	return err
}

func ValidateProblem(p *domain.Problem) error {
	if p.Activities < 2 {
		return fmt.Errorf("活动数至少为 2，实际为 %d", p.Activities)
	}
	if p.Shifts < 1 {
		return fmt.Errorf("班次数至少为 1，实际为 %d", p.Shifts)
	}

	n, v := p.Activities, p.Shifts
	if len(p.Feasible) != n {
		return fmt.Errorf("可行矩阵的行数 %d 和活动数 %d 不匹配", len(p.Feasible), n)
	}
	for i, row := range p.Feasible {
		if len(row) != v {
			return fmt.Errorf("活动 %d 的可行矩阵列数 %d 和班次数 %d 不匹配", i, len(row), v)
		}
		if len(p.FeasibleShifts(i)) == 0 {
			return fmt.Errorf("活动 %d 没有可行的班次", i)
		}
	}

	if len(p.Travel) != n+1 {
		return fmt.Errorf("行程矩阵的行数 %d 应该为 %d", len(p.Travel), n+1)
	}
	for i, row := range p.Travel {
		if len(row) != n+1 {
			return fmt.Errorf("行程矩阵第 %d 行的列数 %d 应该为 %d", i, len(row), n+1)
		}
		for j, d := range row {
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return fmt.Errorf("行程时间 (%d, %d) 不合法: %v", i, j, d)
			}
		}
	}

	if len(p.Start) != n || len(p.End) != n || len(p.Duration) != n {
		return errors.New("时间窗或服务时长的长度和活动数不匹配")
	}
	for i := range n {
		if p.End[i] < p.Start[i] {
			return fmt.Errorf("活动 %d 的时间窗结束早于开始", i)
		}
		if p.Duration[i] < 0 {
			return fmt.Errorf("活动 %d 的服务时长不能为负数", i)
		}
	}

	if len(p.ShiftDuration) != v {
		return fmt.Errorf("班次时长的长度 %d 和班次数 %d 不匹配", len(p.ShiftDuration), v)
	}
	for s, u := range p.ShiftDuration {
		if u <= 0 {
			return fmt.Errorf("班次 %d 的时长必须为正数", s)
		}
	}

	if p.WX < 0 || p.WY < 0 || p.WZ < 0 {
		return errors.New("目标函数的权重不能为负数")
	}
	return nil
}

// ValidateSchedule 检查排班覆盖了所有活动，每个活动恰好出现一次并且在可行班次上
func ValidateSchedule(s *domain.Schedule, p *domain.Problem) error {
	seen := make([]bool, p.Activities)
	for _, route := range s.Routes {
		if route.Shift < 0 || route.Shift >= p.Shifts {
			return fmt.Errorf("排班中存在不存在的班次 %d", route.Shift)
		}
		if len(route.Arrivals) != len(route.Activities) {
			return fmt.Errorf("班次 %d 的到达时间和活动数量不匹配", route.Shift)
		}
		for k, a := range route.Activities {
			if a < 0 || a >= p.Activities {
				return fmt.Errorf("班次 %d 中存在不存在的活动 %d", route.Shift, a)
			}
			if seen[a] {
				return fmt.Errorf("活动 %d 被重复安排", a)
			}
			seen[a] = true
			if !p.Feasible[a][route.Shift] {
				return fmt.Errorf("活动 %d 不能安排在班次 %d", a, route.Shift)
			}
			if route.Arrivals[k] < p.Start[a] {
				return fmt.Errorf("活动 %d 在时间窗开始之前开始服务", a)
			}
		}
	}

	for a, ok := range seen {
		if !ok {
			return fmt.Errorf("活动 %d 没有被安排", a)
		}
	}
	return nil
}
