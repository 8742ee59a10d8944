package task

type TaskDTO struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Deadline   string `json:"deadline"`
	ParentName string `json:"parentName,omitempty"`
	Type       Kind   `json:"type"`
}

type StatusDTO struct {
	Label         string `json:"label"`
	Category      string `json:"category"`
	DaysRemaining int    `json:"daysRemaining"`
}

type ScheduledTaskDTO struct {
	TaskDTO
	Status StatusDTO `json:"status"`
}

func ToDTO(t Task) TaskDTO {
	return TaskDTO{
		Id:         t.Id,
		Name:       t.Name,
		Deadline:   t.Deadline.String(),
		ParentName: t.ParentName,
		Type:       t.Kind,
	}
}

func ToDTOs(tasks []Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, ToDTO(t))
	}
	return dtos
}

func ScheduledToDTO(t ScheduledTask) ScheduledTaskDTO {
	return ScheduledTaskDTO{
		TaskDTO: ToDTO(t.Task),
		Status: StatusDTO{
			Label:         t.Status.Label(),
			Category:      t.Status.Category(),
			DaysRemaining: t.Status.DaysRemaining,
		},
	}
}

func ScheduledToDTOs(tasks []ScheduledTask) []ScheduledTaskDTO {
	dtos := make([]ScheduledTaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, ScheduledToDTO(t))
	}
	return dtos
}
